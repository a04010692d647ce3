package tree

// Collapse fuses chains of directories that hold no files and exactly one
// child directory. The fused node takes the joined name ("src/main/java"),
// and the path, files and children of the last link. Since the intermediate
// links hold no files, no statistic is lost.
//
// The multi-project container is never fused into its only project. The
// fused names are returned in visit order for logging.
func Collapse(n *Node) []string {
	var fused []string
	collapse(n, &fused)
	return fused
}

func collapse(n *Node, fused *[]string) {
	if !n.MultiProject {
		merged := false
		for len(n.Children) == 1 && len(n.Files) == 0 {
			c := n.Children[0]
			n.Name = n.Name + Separator + c.Name
			n.Path = c.Path
			n.Files = c.Files
			n.Children = c.Children
			merged = true
		}
		if merged {
			*fused = append(*fused, n.Name)
		}
	}
	for _, c := range n.Children {
		collapse(c, fused)
	}
}
