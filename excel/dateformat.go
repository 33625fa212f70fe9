package excel

// IsDateFormat reports whether a number format renders its value as a date or
// time. id is the number format id; code is the format code for custom formats.
func IsDateFormat(id int, code string) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	if code == "" {
		return false
	}
	return isDateFormatCode(code)
}

// isDateFormatCode scans a format code for y/m/d/h/s tokens outside quoted
// literals, bracketed sections, escapes and padding directives.
func isDateFormatCode(code string) bool {
	for i := 0; i < len(code); i++ {
		switch ch := code[i]; ch {
		case '"':
			for i++; i < len(code) && code[i] != '"'; i++ {
			}
		case '[':
			for i++; i < len(code) && code[i] != ']'; i++ {
			}
		case '\\', '_', '*':
			i++
		case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
			return true
		}
	}
	return false
}
