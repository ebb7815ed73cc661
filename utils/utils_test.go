package utils

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// The token helpers read the signing secret through config; it must exist
	// before the first Load.
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}
