package driven

// ConfigStore is flat key/value configuration addressed by dotted keys
// ("llm.model", "chat.context_budget"). Typed getters return the zero value
// for missing keys and for values of another type, except GetFloat, which
// also accepts integers.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set updates key and writes the store to disk.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the store is persisted, or ":memory:" for in-memory stores.
	Path() string
}
