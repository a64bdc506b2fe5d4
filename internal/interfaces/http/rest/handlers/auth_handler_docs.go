package handlers

// OpenAPI annotations for AuthHandler. Regenerate rest/docs after editing.

// Login signs in with email and password
// @Summary Sign in
// @Description Signs in with email and password. The shell holds the resulting session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse "Signed in"
// @Failure 400 {object} response.ErrorEnvelope "Missing email or password"
// @Failure 401 {object} response.ErrorEnvelope "Invalid credentials"
// @Failure 429 {object} response.ErrorEnvelope "Too many attempts"
// @Failure 502 {object} response.ErrorEnvelope "Authentication provider error"
// @Router /auth/login [post]

// Register creates an account
// @Summary Create an account
// @Description Creates an account. When the gateway requires email confirmation the session stays anonymous and confirmation_required is set.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Join form"
// @Success 201 {object} SessionResponse "Account created"
// @Failure 400 {object} response.ErrorEnvelope "Invalid form"
// @Failure 409 {object} response.ErrorEnvelope "Email already registered"
// @Failure 429 {object} response.ErrorEnvelope "Too many attempts"
// @Failure 502 {object} response.ErrorEnvelope "Authentication provider error"
// @Router /auth/register [post]

// Logout ends the session
// @Summary Sign out
// @Description Ends the session. Signing out while anonymous succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse "Signed out"
// @Failure 502 {object} response.ErrorEnvelope "Authentication provider error"
// @Router /auth/logout [post]

// Session reports the current session
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse "Session snapshot"
// @Router /auth/session [get]
