package crypto

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
)

// Digests holds the hex-encoded digests of a salted password.
type Digests struct {
	MD5    string
	SHA1   string
	SHA256 string
}

// ComputeDigests hashes password+salt with MD5, SHA-1 and SHA-256.
func ComputeDigests(password, salt string) Digests {
	data := []byte(password + salt)
	return Digests{
		MD5:    ComputeMD5(data),
		SHA1:   ComputeSHA1(data),
		SHA256: ComputeSHA256(data),
	}
}

// ComputeSHA256 computes the SHA-256 hash of a byte slice.
func ComputeSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ComputeSHA1 computes the SHA-1 hash of a byte slice.
func ComputeSHA1(data []byte) string {
	hash := sha1.Sum(data)
	return hex.EncodeToString(hash[:])
}

// ComputeMD5 computes the MD5 hash of a byte slice.
func ComputeMD5(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}

// ValidateHexDigest reports whether digest is a hex string of n bytes.
func ValidateHexDigest(digest string, n int) bool {
	if len(digest) != 2*n {
		return false
	}
	for _, c := range digest {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
