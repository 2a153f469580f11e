package normalize

// MergeRaw unions src into dst, returning a new map. Later writes win per
// key but keys are never removed, so enrichment captured by earlier passes
// survives every re-normalization. Both inputs may be nil.
func MergeRaw(dst, src map[string]any) map[string]any {
	if dst == nil && src == nil {
		return nil
	}
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

// CloneRaw returns a shallow copy so callers can never mutate a source
// record's payload through the normalized output.
func CloneRaw(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
