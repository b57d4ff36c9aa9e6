package forest

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// ErrCorrupt is returned when a serialized forest is structurally invalid.
var ErrCorrupt = errors.New("corrupt forest")

// MarshalBinary encodes f into an opaque blob.
func (f *Forest) MarshalBinary() ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "encode forest")
	}

	return b, nil
}

// UnmarshalBinary decodes a blob produced by MarshalBinary and checks that
// every node reference stays inside its tree.
func (f *Forest) UnmarshalBinary(data []byte) error {
	var decoded Forest
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(err, "decode forest")
	}
	if err := decoded.verify(); err != nil {
		return err
	}
	*f = decoded

	return nil
}

// Decode is a convenience wrapper around UnmarshalBinary.
func Decode(data []byte) (*Forest, error) {
	f := new(Forest)
	if err := f.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Forest) verify() error {
	if f.NumFeatures <= 0 {
		return errors.Wrapf(ErrCorrupt, "invalid feature count %d", f.NumFeatures)
	}
	if len(f.Trees) == 0 {
		return errors.Wrap(ErrCorrupt, "no trees")
	}
	for t, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return errors.Wrapf(ErrCorrupt, "tree %d is empty", t)
		}
		for i, n := range tree.Nodes {
			if n.IsLeaf() {
				continue
			}
			// children are emitted after their parent, which also rules out cycles
			if n.Feature < 0 || n.Feature >= f.NumFeatures ||
				n.Left <= i || n.Left >= len(tree.Nodes) ||
				n.Right <= i || n.Right >= len(tree.Nodes) {
				return errors.Wrapf(ErrCorrupt, "tree %d node %d has invalid references", t, i)
			}
		}
	}

	return nil
}
