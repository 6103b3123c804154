package hashutils

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

func generateHash(data []byte) string {
	hash := sha256.New()
	hash.Write(data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// ContentHash identifies a markup body, equal bodies give equal hashes.
func ContentHash(body []byte) string {
	return generateHash(body)
}

func GetCacheKey(parts ...string) string {
	return generateHash([]byte(strings.Join(parts, ".")))
}
