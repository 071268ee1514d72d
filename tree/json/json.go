/*
Package json provides a canopy.TreeEncodeDecoder that serializes trees
as JSON documents, for embedding in serialized forests or storing on
their own.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/canopy"
	"github.com/pbanos/canopy/tree"
)

/*
EncodeDecoder encodes tree.Tree values as JSON objects with a
"variables" field carrying the number of input variables and a "root"
field carrying the recursive node structure, and decodes them back. It
implements canopy.TreeEncodeDecoder.
*/
type EncodeDecoder struct{}

type jsonNode struct {
	SplitVar   int       `json:"splitVar"`
	SplitVal   float64   `json:"splitVal,omitempty"`
	Gain       float64   `json:"gain,omitempty"`
	Signal     float64   `json:"signal"`
	Background float64   `json:"background"`
	Left       *jsonNode `json:"left,omitempty"`
	Right      *jsonNode `json:"right,omitempty"`
}

type jsonTree struct {
	Variables int       `json:"variables"`
	Root      *jsonNode `json:"root"`
}

/*
Encode takes a canopy.Tree grown by the tree package and returns a
slice of bytes with the tree encoded as JSON, or an error if the tree
is of another implementation or cannot be encoded.
*/
func (EncodeDecoder) Encode(t canopy.Tree) ([]byte, error) {
	tt, ok := t.(*tree.Tree)
	if !ok {
		return nil, fmt.Errorf("encoding tree: cannot encode a %T", t)
	}
	return json.Marshal(&jsonTree{Variables: tt.Variables, Root: encodeNode(tt.Root)})
}

/*
Decode takes a slice of bytes with a tree encoded by Encode and returns
the decoded tree or an error if the bytes cannot be parsed or describe
no root node.
*/
func (EncodeDecoder) Decode(data []byte) (canopy.Tree, error) {
	jt := &jsonTree{}
	if err := json.Unmarshal(data, jt); err != nil {
		return nil, fmt.Errorf("decoding tree: %v", err)
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("decoding tree: no root node available")
	}
	root, err := decodeNode(jt.Root)
	if err != nil {
		return nil, fmt.Errorf("decoding tree: %v", err)
	}
	return &tree.Tree{Root: root, Variables: jt.Variables}, nil
}

func encodeNode(n *tree.Node) *jsonNode {
	if n == nil {
		return nil
	}
	return &jsonNode{
		SplitVar:   n.SplitVar,
		SplitVal:   n.SplitVal,
		Gain:       n.Gain,
		Signal:     n.Signal,
		Background: n.Background,
		Left:       encodeNode(n.Left),
		Right:      encodeNode(n.Right),
	}
}

func decodeNode(jn *jsonNode) (*tree.Node, error) {
	n := &tree.Node{
		SplitVar:   jn.SplitVar,
		SplitVal:   jn.SplitVal,
		Gain:       jn.Gain,
		Signal:     jn.Signal,
		Background: jn.Background,
	}
	if (jn.Left == nil) != (jn.Right == nil) {
		return nil, fmt.Errorf("node with a single subtree")
	}
	if jn.Left != nil {
		var err error
		n.Left, err = decodeNode(jn.Left)
		if err != nil {
			return nil, err
		}
		n.Right, err = decodeNode(jn.Right)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
