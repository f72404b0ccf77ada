package db

// Option -.
type Option func(*SQL)

// MaxPoolSize -.
func MaxPoolSize(size int) Option {
	return func(s *SQL) {
		if size > 0 {
			s.maxPoolSize = size
		}
	}
}

// EnableForeignKeys turns on sqlite foreign key enforcement.
func EnableForeignKeys(enable bool) Option {
	return func(s *SQL) {
		s.foreignKeys = enable
	}
}
