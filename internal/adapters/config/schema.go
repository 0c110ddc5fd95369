package config

// Configfile represents the structure of the ngxsys.yaml configuration file.
type Configfile struct {
	Versions  VersionsDTO `yaml:"versions"`
	Debug     *bool       `yaml:"debug"`
	Jobs      *int        `yaml:"jobs"`
	TargetOS  string      `yaml:"target_os"`
	CacheDir  string      `yaml:"cache_dir"`
	SourceDir string      `yaml:"source_dir"`
}

// VersionsDTO pins dependency versions in the configuration file.
type VersionsDTO struct {
	Zlib    string `yaml:"zlib"`
	PCRE2   string `yaml:"pcre2"`
	OpenSSL string `yaml:"openssl"`
	Nginx   string `yaml:"nginx"`
}
