// FILE: lixenwraith/envhanced/doc.go

// Package envhanced loads layered dotenv configuration: a defaults file, an
// environ file, a secrets file, the process environment and caller overrides
// are merged into one namespace, and every value is coerced from its raw
// string into a bool, int64, float64, JSON structure or string.
//
// Quick Start:
//
//	cfg := envhanced.Quick(".")
//
//	port, err := cfg.Int64("PORT")
//	if errors.Is(err, envhanced.ErrSettingNotFound) {
//	    log.Fatal("PORT is not configured")
//	}
//
// Precedence (lowest to highest):
//  1. <dir>/defaults.env
//  2. <dir>/environ.env
//  3. <dir>/secrets.env
//  4. process environment
//  5. additional overrides passed to the builder
//
// Coercion order for each raw value, first match wins:
//  1. JSON: `[1,2]`, `{"a":1}`, `42`, `"quoted"`, `true` (but not `null`)
//  2. true, True, false, False
//  3. base-10 integer
//  4. decimal float in the strconv.ParseFloat grammar: NaN, Inf, +Inf, -Inf
//     and Infinity in any case, exponents, and _ between digits (1_000).
//     Hexadecimal forms such as 0x1p-2 are not floats and stay strings.
//  5. the raw string
//
// JSON integers outside the int64 range are widened to float64, so
// 99999999999999999999 reads back as 1e+20.
//
// Builder:
//
//	cfg, err := envhanced.NewBuilder().
//	    WithDir("/etc/myapp").
//	    WithSecretsFile("/run/secrets/myapp.env").
//	    WithOverride("LOG_LEVEL", "debug").
//	    WithRequired("DATABASE_URL").
//	    Build()
//
// Typed records:
//
//	type AppConfig struct {
//	    Port    int           `env:"PORT"`
//	    Timeout time.Duration `env:"TIMEOUT"`
//	}
//	var app AppConfig
//	err := cfg.Scan(&app)
//
// Thread Safety:
// Lookups and Reload may be called from multiple goroutines. Reload builds the
// new state without holding the lock and swaps it in a single step.
package envhanced
