package config

// NewLoaderWithEnv creates a Loader over a fixed environment for tests.
func NewLoaderWithEnv(env map[string]string, wd, goos, goarch string) *Loader {
	return &Loader{
		lookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		getwd:  func() (string, error) { return wd, nil },
		goos:   goos,
		goarch: goarch,
	}
}
