//go:build !unix

package pidwait

func alive(int) (bool, error) { return false, ErrUnsupported }
