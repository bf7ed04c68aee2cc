package notebook

import (
	"bytes"
	"encoding/json"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// Bytes serializes the notebook in nbformat's on-disk shape: sorted keys,
// one-space indentation, non-ASCII and HTML characters literal, trailing
// newline. Raw fields pass through verbatim apart from re-indentation.
func (nb *Notebook) Bytes() ([]byte, error) {
	data, err := marshalNoEscape(nb)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotebook, "failed to serialize notebook").Build()
	}

	var out bytes.Buffer
	out.Grow(len(data) + len(data)/8)
	if err := json.Indent(&out, data, "", " "); err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotebook, "failed to indent notebook").Build()
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshalNoEscape marshals without HTML escaping, trimming the encoder's
// trailing newline so the result composes like json.Marshal output.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
