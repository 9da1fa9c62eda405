package encryption

import "testing"

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestEncryptDecrypt(t *testing.T) {
	enc, err := NewWithKey(testKey())
	if err != nil {
		t.Fatalf("NewWithKey failed: %v", err)
	}

	testCases := []struct {
		name      string
		plaintext string
	}{
		{"simple", "hello world"},
		{"access key", "AkT9rGb2mQ8xL4nZ"},
		{"empty", ""},
		{"special chars", "!@#$%^&*()_+-=[]{}|;':\",./<>?"},
		{"long", string(make([]byte, 10000))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encrypted, err := enc.Encrypt(tc.plaintext)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			if tc.plaintext != "" && encrypted == tc.plaintext {
				t.Error("encrypted text should differ from plaintext")
			}

			decrypted, err := enc.Decrypt(encrypted)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}

			if decrypted != tc.plaintext {
				t.Errorf("expected %q, got %q", tc.plaintext, decrypted)
			}
		})
	}
}

func TestEncryptionDifferentEachTime(t *testing.T) {
	enc, err := NewWithKey(testKey())
	if err != nil {
		t.Fatalf("NewWithKey failed: %v", err)
	}

	plaintext := "same plaintext"
	encrypted1, _ := enc.Encrypt(plaintext)
	encrypted2, _ := enc.Encrypt(plaintext)

	// Random nonce makes each ciphertext unique
	if encrypted1 == encrypted2 {
		t.Error("encryptions of same plaintext should produce different ciphertexts")
	}

	decrypted1, _ := enc.Decrypt(encrypted1)
	decrypted2, _ := enc.Decrypt(encrypted2)

	if decrypted1 != plaintext || decrypted2 != plaintext {
		t.Error("both ciphertexts should decrypt to original plaintext")
	}
}

func TestDecryptInvalidData(t *testing.T) {
	enc, err := NewWithKey(testKey())
	if err != nil {
		t.Fatalf("NewWithKey failed: %v", err)
	}

	// Invalid base64
	if _, err := enc.Decrypt("not-valid-base64!!!"); err == nil {
		t.Error("expected error for invalid base64")
	}

	// Valid base64 but invalid ciphertext
	if _, err := enc.Decrypt("aGVsbG8gd29ybGQ="); err == nil {
		t.Error("expected error for invalid ciphertext")
	}
}

func TestNewWithKeyInvalidLength(t *testing.T) {
	if _, err := NewWithKey([]byte("short")); err == nil {
		t.Error("expected error for key too short")
	}

	if _, err := NewWithKey(make([]byte, 64)); err == nil {
		t.Error("expected error for key too long")
	}
}

func TestNewDefault(t *testing.T) {
	enc, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	plaintext := "test access key"
	encrypted, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	decrypted, err := enc.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	if decrypted != plaintext {
		t.Errorf("expected %q, got %q", plaintext, decrypted)
	}
}
