package storage

import (
	"strings"
	"testing"
)

func TestDefaultArgon2Params(t *testing.T) {
	params := DefaultArgon2Params()

	if params.Memory != 64*1024 {
		t.Errorf("expected memory 64MB, got %d KB", params.Memory)
	}
	if params.Iterations != 1 {
		t.Errorf("expected iterations 1, got %d", params.Iterations)
	}
	if params.Parallelism != 4 {
		t.Errorf("expected parallelism 4, got %d", params.Parallelism)
	}
	if params.SaltLength != 16 {
		t.Errorf("expected salt length 16, got %d", params.SaltLength)
	}
	if params.KeyLength != 32 {
		t.Errorf("expected key length 32, got %d", params.KeyLength)
	}
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("klingate-admin-secret", DefaultArgon2Params())
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("hash should start with $argon2id$v=, got: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("expected 6 parts in hash, got %d", len(parts))
	}
}

func TestHashPasswordNilParamsUsesDefaults(t *testing.T) {
	hash, err := HashPassword("klingate-admin-secret", nil)
	if err != nil {
		t.Fatalf("HashPassword with nil params failed: %v", err)
	}
	if hash == "" {
		t.Error("expected non-empty hash")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	params := DefaultArgon2Params()

	hash1, err := HashPassword("kg_gatewaykey", params)
	if err != nil {
		t.Fatalf("first hash failed: %v", err)
	}
	hash2, err := HashPassword("kg_gatewaykey", params)
	if err != nil {
		t.Fatalf("second hash failed: %v", err)
	}

	// Fresh salt per hash, so equal inputs never collide.
	if hash1 == hash2 {
		t.Error("hashing the same secret twice should produce different hashes")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("klingate-admin-secret", DefaultArgon2Params())
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	valid, err := VerifyPassword("klingate-admin-secret", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !valid {
		t.Error("correct password should verify as valid")
	}

	valid, err = VerifyPassword("not-the-admin-secret", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if valid {
		t.Error("incorrect password should not verify as valid")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	testCases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong format", "notahash"},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536"},
		{"invalid base64 salt", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifyPassword("klingate-admin-secret", tc.hash); err == nil {
				t.Error("expected error for malformed hash")
			}
		})
	}
}

func TestGenerateRandomBytes(t *testing.T) {
	for _, length := range []uint32{16, 32, 64} {
		bytes, err := GenerateRandomBytes(length)
		if err != nil {
			t.Fatalf("GenerateRandomBytes(%d) failed: %v", length, err)
		}
		if uint32(len(bytes)) != length {
			t.Errorf("expected %d bytes, got %d", length, len(bytes))
		}
	}
}

func TestGenerateRandomBytesUniqueness(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		bytes, err := GenerateRandomBytes(16)
		if err != nil {
			t.Fatalf("GenerateRandomBytes failed: %v", err)
		}
		if seen[string(bytes)] {
			t.Error("generated duplicate random bytes")
		}
		seen[string(bytes)] = true
	}
}

func BenchmarkHashPassword(b *testing.B) {
	params := DefaultArgon2Params()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("klingate-admin-secret", params)
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	hash, _ := HashPassword("klingate-admin-secret", DefaultArgon2Params())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = VerifyPassword("klingate-admin-secret", hash)
	}
}
