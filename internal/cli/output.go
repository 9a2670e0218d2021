package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/pretty"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return systemError(fmt.Errorf("marshal output: %w", err))
	}
	_, err = w.Write(pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  "}))
	return err
}

// parseID parses a positive entity ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, userError("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
