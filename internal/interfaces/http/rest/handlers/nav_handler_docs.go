package handlers

// GetNav returns the top-bar actions
// @Summary Navigation actions
// @Description Always includes discover. Adds create, profile and sign_out when signed in, sign_in and join when anonymous, loading while the session is unresolved.
// @Tags nav
// @Produce json
// @Success 200 {object} NavResponse "Actions for the current session"
// @Router /nav [get]
