// Command logitrack runs the LogiTrack API and its maintenance tasks.
//
//	logitrack serve              # migrate, seed, then serve until SIGINT/SIGTERM
//	logitrack migrate            # apply pending migrations
//	logitrack migrate:rollback   # reverse the last batch
//	logitrack migrate:status
//	logitrack seed               # roles, default manager, sample inventory
//	logitrack route:list
//
// Configuration is read from config/app.yaml, then .env, then the process
// environment; see package config.
package main
