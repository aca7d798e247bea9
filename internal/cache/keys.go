package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "studybuddy"

	synthServiceName  = "synth"
	payloadObjectType = "payload"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// GenerationKey is the key of a synthesized payload: the hash of the exact
// text sent to the model plus the generator that produced it.
func GenerationKey(text, generatorName string) string {
	sum := sha256.Sum256([]byte(text))
	return GenerateCacheKey(synthServiceName, payloadObjectType, hex.EncodeToString(sum[:]), generatorName)
}
