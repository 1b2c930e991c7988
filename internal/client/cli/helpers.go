package cli

// maskToken показывает только последние 4 символа токена
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********" // короткие токены маскируем полностью
	}
	return "…" + token[len(token)-4:]
}
