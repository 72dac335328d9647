package scan

import "os"

// DirSize sums the sizes of all regular files under dir. The traversal is
// iterative rather than recursive, and unreadable entries are skipped.
func DirSize(dir string) uint64 {
	var total uint64
	stack := []string{dir}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				stack = append(stack, path+string(os.PathSeparator)+entry.Name())
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				total += uint64(info.Size())
			}
		}
	}

	return total
}
