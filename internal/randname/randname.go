// Package randname generates short random alphanumeric file names.
package randname

import "math/rand"

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randLen is the number of random characters between prefix and suffix.
// 62^8 candidates make a collision with an existing directory entry
// effectively a one-shot event.
const randLen = 8

// Generate returns prefix + randLen random alphanumeric characters +
// suffix.
func Generate(prefix, suffix string) string {
	b := make([]byte, 0, len(prefix)+randLen+len(suffix))
	b = append(b, prefix...)
	for i := 0; i < randLen; i++ {
		b = append(b, alphanumeric[rand.Intn(len(alphanumeric))])
	}
	b = append(b, suffix...)
	return string(b)
}
