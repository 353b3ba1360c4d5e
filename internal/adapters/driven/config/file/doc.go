// Package file provides filesystem-backed adapters rooted at the docchat
// data directory (~/.docchat by default).
//
// Adapters:
//   - ConfigStore: settings in config.toml, nested by dotted key
//   - PromptStore: editable system prompts under prompts/
//   - LoadEnv: optional .env file for secrets such as DOCCHAT_API_KEY
package file
