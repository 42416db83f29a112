package app

// encodeOutput builds the cached result of a command run.
func encodeOutput(stdout, stderr []byte) []any {
	return []any{stdout, stderr}
}

// decodeOutput reverses encodeOutput. Entries with another shape are rejected.
func decodeOutput(result []any) (stdout, stderr []byte, ok bool) {
	if len(result) != 2 {
		return nil, nil, false
	}
	stdout, ok = asBytes(result[0])
	if !ok {
		return nil, nil, false
	}
	stderr, ok = asBytes(result[1])
	if !ok {
		return nil, nil, false
	}
	return stdout, stderr, true
}

func asBytes(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}
