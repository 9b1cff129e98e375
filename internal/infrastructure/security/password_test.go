package security

import "testing"

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher()

	digest, err := h.Hash("hunter2!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "hunter2!" {
		t.Fatal("digest must not equal the plaintext")
	}
	if err := h.Compare(digest, "hunter2!"); err != nil {
		t.Errorf("Compare with the right password: %v", err)
	}
	if err := h.Compare(digest, "wrong"); err == nil {
		t.Error("Compare accepted the wrong password")
	}
}

func TestPasswordHasherZeroValue(t *testing.T) {
	var h PasswordHasher
	digest, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Compare(digest, "s3cret"); err != nil {
		t.Errorf("Compare: %v", err)
	}
}
