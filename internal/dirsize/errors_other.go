//go:build !unix

package dirsize

func isResourceExhausted(error) bool {
	return false
}

func isUnresolvable(error) bool {
	return false
}
