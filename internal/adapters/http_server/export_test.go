package httpserver

// SetMaxUploadBody lowers the upload limit for the duration of a test.
func SetMaxUploadBody(n int64) (restore func()) {
	prev := maxUploadBody
	maxUploadBody = n
	return func() { maxUploadBody = prev }
}
