/*
Package atomicfile writes a file so that the destination either keeps
its old content or gets the complete new content, never something in
between. Content goes to a temporary file in the same directory, which
is synced and renamed over the destination on Close. Any error before
that point removes the temporary file and leaves the destination
alone.

	err := atomicfile.WriteFile(path, data)

or, for streaming writes:

	f, err := atomicfile.New(path)
	if err != nil {
		return err
	}
	defer f.Cancel()
	// ... f.Write / f.WriteString ...
	return f.Close()
*/
package atomicfile
