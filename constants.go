package main

const (
	RouteStartSession = "/api/game/start_session"
	RouteNextPuzzle   = "/api/game/next_puzzle"
	RouteValidate     = "/api/game/validate"
	RouteReveal       = "/api/game/reveal"
	RouteClearSession = "/api/game/clear_session"
	RouteDemo         = "/api/game/demo"
	RouteSubmitScore  = "/api/game/submit_score"
	RouteHealthz      = "/api/healthz"
)
