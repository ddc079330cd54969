package portal

// HasUserUUID reports whether the session carries a parseable user UUID.
func HasUserUUID(session *SessionObject) bool {
	if session == nil {
		return false
	}
	_, err := session.GetUserUUID()
	return err == nil
}
