package handlers

// @title Holdings API
// @version 1.0
// @description Currency holdings and company records over MySQL or the Aurora Data API

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

// @tag.name holdings
// @tag.description Currency holding operations

// @tag.name employees
// @tag.description Raw employee records

// @tag.name health
// @tag.description Database reachability

// @tag.name hello
// @tag.description Greeting
