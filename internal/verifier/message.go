package verifier

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tao-colosseum/colosseum-validator/internal/types"
)

// messagePrefix anchors the signed payload so a signature produced for an
// unrelated purpose can never be replayed as a wallet link.
const messagePrefix = "colosseum-link"

// LinkMessage is the payload both parties sign. The embedded fields must
// match the claimed identity and address exactly.
type LinkMessage struct {
	UID         uint64
	IdentityKey string
	Address     string
	TimestampMs int64
}

// FormatLinkMessage renders the canonical signed payload:
//
//	colosseum-link|uid:<uid>|identity:<hex pubkey>|addr:<0x address>|ts:<unix ms>
func FormatLinkMessage(uid uint64, identityKey, address string, timestampMs int64) string {
	return fmt.Sprintf("%s|uid:%d|identity:%s|addr:%s|ts:%d",
		messagePrefix, uid, identityKey, address, timestampMs)
}

func parseLinkMessage(message string) (*LinkMessage, error) {
	parts := strings.Split(message, "|")
	if len(parts) != 5 || parts[0] != messagePrefix {
		return nil, malformed("message does not match the colosseum-link format")
	}

	var parsed LinkMessage
	if _, err := fmt.Sscanf(parts[1], "uid:%d", &parsed.UID); err != nil {
		return nil, malformed("message uid field is not parseable")
	}
	if !strings.HasPrefix(parts[2], "identity:") {
		return nil, malformed("message identity field is not parseable")
	}
	parsed.IdentityKey = strings.TrimPrefix(parts[2], "identity:")
	if !strings.HasPrefix(parts[3], "addr:") {
		return nil, malformed("message addr field is not parseable")
	}
	parsed.Address = strings.TrimPrefix(parts[3], "addr:")
	if _, err := fmt.Sscanf(parts[4], "ts:%d", &parsed.TimestampMs); err != nil {
		return nil, malformed("message ts field is not parseable")
	}

	return &parsed, nil
}

func malformed(msg string) *types.Error {
	return types.NewErrorWithMsg(http.StatusBadRequest, types.MalformedMessage, msg)
}
