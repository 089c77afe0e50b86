package adapter

import "strings"

const maxElectionIDLen = 256

// FilterElectionID turns an election identifier into a name accepted by the
// mix-net as a session name: the first character must be a letter, the others
// letters, digits, '_' or ' '. Other characters are replaced by '_'.
func FilterElectionID(election string) string {
	if election == "" {
		return ""
	}
	b := []byte(election)
	if len(b) > maxElectionIDLen {
		b = b[:maxElectionIDLen]
	}
	var sb strings.Builder
	for i, c := range b {
		ok := isLetter(c)
		if i > 0 {
			ok = ok || (c >= '0' && c <= '9') || c == '_' || c == ' '
		}
		if !ok {
			c = '_'
		}
		sb.WriteByte(c)
	}
	if sb.Len() == 1 {
		sb.WriteByte('_')
	}
	return sb.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
