package secret

import (
	"errors"
	"testing"
)

func mapEnv(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestExpandEnv(t *testing.T) {
	env := mapEnv(map[string]string{
		"REDIS_HOST": "cache.internal",
		"REDIS_PORT": "6379",
		"EMPTY":      "",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "localhost:6379", "localhost:6379"},
		{"braced", "${REDIS_HOST}:${REDIS_PORT}", "cache.internal:6379"},
		{"bare", "$REDIS_HOST", "cache.internal"},
		{"bare unset is empty", "x$NOPE", "x"},
		{"set but empty", "[${EMPTY}]", "[]"},
		{"escaped dollar", "pa$$word", "pa$word"},
		{"escape before reference", "$$${REDIS_PORT}", "$6379"},
		{"escaped braces stay literal", "$${REDIS_PORT}", "${REDIS_PORT}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnv(tt.in, env)
			if err != nil {
				t.Fatalf("expandEnv(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandEnv_MissingNamesEveryVariable(t *testing.T) {
	_, err := expandEnv("${B}:${A}/${B}", mapEnv(nil))
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("err = %v, want ErrMissingEnv", err)
	}
	if want := "secret: missing environment variables: A, B"; err.Error() != want {
		t.Errorf("err = %q, want %q", err, want)
	}
}

func TestExpandEnvStrict_UsesProcessEnv(t *testing.T) {
	t.Setenv("SNIPFMT_TEST_TOKEN", "abc")
	got, err := ExpandEnvStrict("Bearer ${SNIPFMT_TEST_TOKEN}")
	if err != nil || got != "Bearer abc" {
		t.Errorf("ExpandEnvStrict() = %q, %v", got, err)
	}
}
