package canopy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

/*
ForestError represents an error related to serialized forests.
*/
type ForestError string

/*
ErrCorruptForest is the error returned when a serialized forest stream
declares entries whose round indices do not form the expected 0-based
sequence: the stream is corrupt and no forest is restored from it.
*/
const ErrCorruptForest = ForestError("serialized forest entries out of sequence")

func (fe ForestError) Error() string {
	return string(fe)
}

/*
WriteForest takes a context, a forest, a TreeEncodeDecoder and an
io.Writer and serializes the forest as JSON onto the io.Writer.
A forest is serialized as a JSON object with the following fields:
* "trees": the number of entries in the forest
* "entries": an array with one object per entry, in training order,
  each carrying the 0-based round index of the entry as "index", its
  round weight as "weight" and the tree encoded by the given
  TreeEncodeDecoder as "tree".
An error is returned if a tree cannot be encoded or the stream cannot
be written.
*/
func WriteForest(ctx context.Context, f *Forest, ted TreeEncodeDecoder, w io.Writer) error {
	if _, err := fmt.Fprintf(w, `{"trees":%d,"entries":[`, f.Count()); err != nil {
		return fmt.Errorf("serializing forest: %v", err)
	}
	for i, entry := range f.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i != 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return fmt.Errorf("serializing forest: %v", err)
			}
		}
		jweight, err := json.Marshal(entry.Weight)
		if err != nil {
			return fmt.Errorf("serializing forest entry %d: %v", i, err)
		}
		jtree, err := ted.Encode(entry.Tree)
		if err != nil {
			return fmt.Errorf("serializing forest entry %d: encoding tree: %v", i, err)
		}
		if _, err = fmt.Fprintf(w, `{"index":%d,"weight":%s,"tree":%s}`, i, jweight, jtree); err != nil {
			return fmt.Errorf("serializing forest entry %d: %v", i, err)
		}
	}
	if _, err := w.Write([]byte(`]}`)); err != nil {
		return fmt.Errorf("serializing forest: %v", err)
	}
	return nil
}

/*
ReadForest takes a context, a forest, a TreeEncodeDecoder and an
io.Reader and replaces the contents of the forest with the entries
parsed from the io.Reader, which are expected in the format WriteForest
produces. Whatever the forest held before is discarded.

The round index parsed for each entry must equal its position in the
stream; an entry out of sequence makes the whole load fail with
ErrCorruptForest and leaves no partial forest behind. An error is also
returned if the stream cannot be parsed, its declared size does not
match the number of entries it carries, or a tree cannot be decoded.
*/
func ReadForest(ctx context.Context, f *Forest, ted TreeEncodeDecoder, r io.Reader) error {
	jf := &struct {
		Trees   int `json:"trees"`
		Entries []struct {
			Index  int             `json:"index"`
			Weight float64         `json:"weight"`
			Tree   json.RawMessage `json:"tree"`
		} `json:"entries"`
	}{}
	if err := json.NewDecoder(r).Decode(jf); err != nil {
		return fmt.Errorf("parsing serialized forest: %v", err)
	}
	if jf.Trees != len(jf.Entries) {
		return fmt.Errorf("parsing serialized forest: declared %d trees but found %d entries", jf.Trees, len(jf.Entries))
	}
	entries := make([]Entry, 0, len(jf.Entries))
	for i, je := range jf.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if je.Index != i {
			return ErrCorruptForest
		}
		t, err := ted.Decode(je.Tree)
		if err != nil {
			return fmt.Errorf("parsing serialized forest entry %d: decoding tree: %v", i, err)
		}
		entries = append(entries, Entry{t, je.Weight})
	}
	f.entries = entries
	return nil
}
