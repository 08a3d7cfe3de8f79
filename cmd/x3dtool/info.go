package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/x3d/internal/engine/scene"
)

// printInfo writes scene totals followed by the node tree. maxDepth limits
// the tree when positive.
func printInfo(w io.Writer, s *scene.Scene, maxDepth int) {
	var nodes, meshes, lights, triangles, collidable int
	s.Root.Traverse(func(n *scene.Node) bool {
		nodes++
		if m := n.Mesh(); m != nil {
			meshes++
			triangles += m.TriangleCount()
		}
		if n.Light != nil {
			lights++
		}
		collidable += n.TriangleCount()
		return true
	})

	b := s.Root.TreeBounds()
	fmt.Fprintf(w, "Nodes:     %d\n", nodes)
	fmt.Fprintf(w, "Meshes:    %d\n", meshes)
	fmt.Fprintf(w, "Lights:    %d\n", lights)
	fmt.Fprintf(w, "Triangles: %d (%d collidable)\n", triangles, collidable)
	if !b.IsEmpty() {
		size := b.Size()
		fmt.Fprintf(w, "Bounds:    %.2f x %.2f x %.2f\n", size.X, size.Y, size.Z)
	}
	fmt.Fprintf(w, "Light map: %dx%d, %d samples\n", s.LightMap.Width, s.LightMap.Height, s.LightMap.SampleCount)
	fmt.Fprintln(w)
	printNode(w, s.Root, 0, maxDepth)
}

func printNode(w io.Writer, n *scene.Node, depth, maxDepth int) {
	if maxDepth > 0 && depth >= maxDepth {
		return
	}
	var tags []string
	if m := n.Mesh(); m != nil {
		tags = append(tags, fmt.Sprintf("mesh %dv/%df", m.VertexCount(), m.FaceCount()))
	}
	if n.Light != nil {
		tags = append(tags, n.Light.Type.String()+" light")
	}
	if a := n.Animator(); a != nil {
		tags = append(tags, "animator "+a.Name())
	}
	if n.Collidable {
		tags = append(tags, "collidable")
	}
	if n.LightMapEnabled {
		tags = append(tags, "lightmap")
	}
	if !n.Visible {
		tags = append(tags, "hidden")
	}

	line := strings.Repeat("  ", depth) + n.Name
	if len(tags) > 0 {
		line += " [" + strings.Join(tags, ", ") + "]"
	}
	fmt.Fprintln(w, line)
	for i := 0; i < n.ChildCount(); i++ {
		printNode(w, n.ChildAt(i), depth+1, maxDepth)
	}
}
