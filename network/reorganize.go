package network

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// ReorganizeWideBifurcations splits every joint with n > MaxJointChildren children into a chain of
// n-1 two child joints. The bifurcation length folded into the parent is taken back
// and spread over n-2 synthetic segments placed along the bifurcation tangent; the
// children attach one per joint down the chain, the last two to the final joint.
// The input graph is not modified; when disabled it is returned as is.
func ReorganizeWideBifurcations(g *SegmentGraph, enabled bool) (*SegmentGraph, error) {
	if !enabled {
		return g, nil
	}
	var wide bool
	for _, j := range g.Joints {
		wide = wide || j.Wide()
	}
	if !wide {
		return g, nil
	}

	ng := g.Clone()
	joints := ng.Joints
	ng.Joints = make([]Joint, 0, len(joints))
	for _, j := range joints {
		if !j.Wide() {
			ng.Joints = append(ng.Joints, j)
			continue
		}
		var (
			n        = len(j.ChildSegments)
			parent   = &ng.Segments[j.ParentSegment]
			share    = j.BifurcationLength / float64(n-2)
			rawStep  = share
			upstream = j.ParentSegment
			origin   = ng.Nodes[parent.RearNode].Coordinates
			area     = parent.OutletArea
		)
		if ng.LengthCoef != 0 {
			rawStep = share / ng.LengthCoef
		}
		parent.Length -= j.BifurcationLength

		for k := 0; k < n-1; k++ {
			joint := Joint{
				NodeID:           ng.Segments[upstream].RearNode,
				ParentSegment:    upstream,
				BifurcationGroup: j.BifurcationGroup,
				Tangent:          j.Tangent,
			}
			child := j.ChildSegments[k]
			ng.Segments[child].HeadNode = joint.NodeID
			joint.ChildSegments = []int{child}
			if k == n-2 {
				last := j.ChildSegments[n-1]
				ng.Segments[last].HeadNode = joint.NodeID
				joint.ChildSegments = append(joint.ChildSegments, last)
			} else {
				node := Node{
					ID:          len(ng.Nodes),
					Coordinates: r3.Add(origin, r3.Scale(float64(k+1)*rawStep, j.Tangent)),
				}
				ng.Nodes = append(ng.Nodes, node)
				syn := Segment{
					ID:         len(ng.Segments),
					GroupID:    j.BifurcationGroup,
					Length:     share,
					InletArea:  area,
					OutletArea: area,
					HeadNode:   joint.NodeID,
					RearNode:   node.ID,
					Kind:       Internal,
					PathID:     -1,
					Synthetic:  true,
				}
				ng.Segments = append(ng.Segments, syn)
				joint.ChildSegments = append(joint.ChildSegments, syn.ID)
				upstream = syn.ID
			}
			ng.Joints = append(ng.Joints, joint)
		}
	}
	for i := range ng.Joints {
		ng.Joints[i].ID = i
	}
	if err := ng.Validate(); err != nil {
		return nil, err
	}
	return ng, nil
}
