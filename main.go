package main

import "github.com/killallgit/jamboard-api/cmd"

// @title           JamBoard API
// @version         1.0.0
// @description     A shared board for short audio ideas: recording, tagging, comments and clip analysis
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/jamboard-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token from /api/v1/auth/login, sent as "Bearer <token>"
func main() {
	cmd.Execute()
}
