// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `CASCADE_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the service fails fast
// if required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the platform DSN.  One database, one DSN; secrets come
// in through the environment overlay rather than living in YAML.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

//
// Assets section
//

// Assets locates the managed stylesheet directory and the public prefix
// it is served under.  Both are explicit configuration injected into the
// repository and resolver constructors; nothing reads them ambiently.
type Assets struct {
	Dir     string `koanf:"dir"      validate:"required"`
	BaseURL string `koanf:"base_url" validate:"required"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or CASCADE_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // CASCADE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the service lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Assets   Assets   `koanf:"assets"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
