// Package sites holds the built-in providers. Importing it (usually blank,
// from the command layer) registers every provider with the registry.
package sites

import "ryujin/providers"

func init() {
	providers.Register(NewMangaDex())
	providers.Register(NewAsura())
	providers.Register(NewSussyToons())
}
