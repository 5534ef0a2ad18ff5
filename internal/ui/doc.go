// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// Views:
//  1. [OverviewView] : account, stats, health and per-section load errors, with live progress while loading
//  2. [JobsView] : browse jobs; run, pause or resume the selection; enter shows its run history
//  3. [SourcesView] : browse sources; enter starts a job builder for the selected source
//  4. [RunsView] : run history table for one job
//  5. [BuilderView] : the job builder wizard, one text input per field
//  6. [LoginView] : shown once the API client reports the session is gone
//
// Data loads run as tea.Cmds. The overview streams [tasks.ProgressUpdate] values from a channel, one message
// per update, until the final result arrives.
//
// [LoginRedirect] is handed to the API client as its navigator so a failed token refresh switches the
// program to [LoginView] rather than exiting mid-frame.
package ui
