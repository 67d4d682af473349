package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds "prefix:sha256(json(parts))". Key option structs carry
// json tags, so field renames change keys and old entries simply miss.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ScriptHash hashes a gesture script so that line endings and trailing
// whitespace do not matter: a script saved on Windows replays from the
// same scene entry as its Unix copy.
func ScriptHash(script []byte) string {
	lines := bytes.Split(bytes.ReplaceAll(script, []byte("\r\n"), []byte("\n")), []byte("\n"))
	for i, l := range lines {
		lines[i] = bytes.TrimRight(l, " \t")
	}
	return Hash(bytes.TrimRight(bytes.Join(lines, []byte("\n")), "\n"))
}
