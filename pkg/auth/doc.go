// Package auth provides password hashing and self-issued bearer tokens.
//
// # Passwords
//
// Passwords are stored as bcrypt hashes:
//
//	h := auth.NewHasher(bcrypt.DefaultCost)
//	hash, err := h.Hash("hunter2")
//	err = h.Check(hash, "hunter2") // nil, or ErrBadPassword
//
// # Tokens
//
// Tokens are HS256 JWTs with the user id as subject. They are verified on
// every request and never stored:
//
//	tm := auth.NewTokenManager([]byte(cfg.Auth.SecretKey), time.Hour, "courserev")
//	token, expiresAt, err := tm.Issue(user.ID)
//	userID, err := tm.Verify(token)
//
// # Identity
//
// The auth middleware binds an *Identity to the request context. Handlers
// read it with IdentityFromContext and pass the user id to the store.
package auth
