package outline

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/jthorne/pdfoutline/internal/layout"
)

// Fingerprint computes a deterministic digest of a document's
// normalized text content, used for exact-match lookup against the
// known-outline table. Layout geometry is deliberately excluded so the
// same content re-rendered at slightly different coordinates still
// matches.
func Fingerprint(blocks []layout.TextBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		if b.Text == "" {
			continue
		}
		sb.WriteString(b.Text)
		sb.WriteByte('\n')
	}
	h := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%x", h[:])
}
