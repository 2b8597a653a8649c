// Package jwt provides JSON Web Token utilities for the GameFlow API.
//
// Access tokens are RS256-signed JWTs carrying the user id and email as
// custom claims. Refresh tokens are opaque and handled by the service
// layer; this package only signs and validates access tokens.
//
// # Token Generation
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    PublicKeyPath:  "./keys/public.pem",
//	    Issuer:         "api.gameflow.dev",
//	    ExpirationMins: 15,
//	})
//	token, err := svc.Sign(jwt.Claims{Subject: userID, UserID: userID, Email: email})
//
// # Token Validation
//
//	claims, err := svc.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
package jwt
