package config

// Memofile represents the structure of the memo.yaml configuration file.
// Every field is optional; unset fields keep their default.
type Memofile struct {
	CacheDirectory  string `yaml:"cacheDirectory"`
	CacheIdentifier string `yaml:"cacheIdentifier"`
	TTL             string `yaml:"ttl"`
	CheckFrequency  string `yaml:"checkFrequency"`
	StatConcurrency *int   `yaml:"statConcurrency"`
}
