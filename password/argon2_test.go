package password

import (
	"errors"
	"strings"
	"testing"
)

// Minimum-cost parameters keep the suite fast.
func testConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	hasher, err := NewArgon2(testConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	hash, err := hasher.Hash("longenough1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("longenough1", hash)
	if err != nil || !ok {
		t.Fatalf("expected verification to succeed: ok=%v err=%v", ok, err)
	}

	ok, err = hasher.Verify("wrong-password", hash)
	if err != nil || ok {
		t.Fatalf("expected wrong password to fail: ok=%v err=%v", ok, err)
	}
}

func TestArgon2IsSalted(t *testing.T) {
	hasher, _ := NewArgon2(testConfig())

	a, _ := hasher.Hash("same-password")
	b, _ := hasher.Hash("same-password")
	if a == b {
		t.Fatal("expected distinct salts to give distinct encodings")
	}
}

func TestArgon2NeedsUpgrade(t *testing.T) {
	weak, _ := NewArgon2(testConfig())
	hash, err := weak.Hash("test-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	stronger := testConfig()
	stronger.Time = 2
	strong, _ := NewArgon2(stronger)

	if up, err := strong.NeedsUpgrade(hash); err != nil || !up {
		t.Fatalf("expected upgrade for weaker params: up=%v err=%v", up, err)
	}
	if up, err := weak.NeedsUpgrade(hash); err != nil || up {
		t.Fatalf("expected no upgrade for same params: up=%v err=%v", up, err)
	}
}

func TestArgon2NeedsUpgradeIgnoresStrongerDigest(t *testing.T) {
	strongCfg := testConfig()
	strongCfg.Time = 2
	strongCfg.KeyLength = 48
	strong, _ := NewArgon2(strongCfg)
	hash, err := strong.Hash("test-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	weak, _ := NewArgon2(testConfig())
	if up, err := weak.NeedsUpgrade(hash); err != nil || up {
		t.Fatalf("expected no upgrade toward weaker params: up=%v err=%v", up, err)
	}
}

func TestArgon2RejectsMalformedAndWrongVersion(t *testing.T) {
	hasher, _ := NewArgon2(testConfig())

	if _, err := hasher.Verify("password", "not-a-phc-hash"); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}

	hash, _ := hasher.Hash("version-test")
	wrong := strings.Replace(hash, "$v=19$", "$v=18$", 1)
	if _, err := hasher.Verify("version-test", wrong); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding for wrong version, got %v", err)
	}
}

func TestArgon2MaxPasswordBytes(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPasswordBytes = 64
	hasher, _ := NewArgon2(cfg)

	if _, err := hasher.Hash(strings.Repeat("a", 65)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	hash, err := hasher.Hash(strings.Repeat("b", 64))
	if err != nil {
		t.Fatalf("expected max-length password to hash: %v", err)
	}
	if _, err := hasher.Verify(strings.Repeat("c", 65), hash); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected Verify to reject long input, got %v", err)
	}
}

func TestNewArgon2RejectsWeakConfig(t *testing.T) {
	cfg := testConfig()
	cfg.SaltLength = 8
	if _, err := NewArgon2(cfg); err == nil {
		t.Fatal("expected short salt config to be rejected")
	}
}

func TestIsArgon2(t *testing.T) {
	hasher, _ := NewArgon2(testConfig())
	hash, _ := hasher.Hash("longenough1")
	if !IsArgon2(hash) {
		t.Fatalf("expected %q to be recognized", hash)
	}
	if IsArgon2(Digest("longenough1")) {
		t.Fatal("expected a SHA-256 hex digest not to be recognized")
	}
}
