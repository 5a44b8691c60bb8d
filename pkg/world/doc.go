// Package world holds everything a TokWorld character lives in: the atlas
// of maps, the characters themselves and the Manager that ticks them.
package world
