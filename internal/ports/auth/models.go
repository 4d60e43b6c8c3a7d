package auth

// Claims representa la identidad extraída del token. El UserID es el
// dueño de cursos y tomas; Email solo se usa para trazas.
type Claims struct {
	UserID string
	Email  string
}
