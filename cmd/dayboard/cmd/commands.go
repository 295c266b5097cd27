package cmd

import (
	"dayboard/cmd/dayboard/cmd/auth"
	"dayboard/cmd/dayboard/cmd/note"
	"dayboard/cmd/dayboard/cmd/task"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	rootCmd.AddCommand(task.TaskCmd)
	task.TaskCmd.AddCommand(task.ListCmd)
	task.TaskCmd.AddCommand(task.AddCmd)
	task.TaskCmd.AddCommand(task.EditCmd)
	task.TaskCmd.AddCommand(task.DoneCmd)
	task.TaskCmd.AddCommand(task.UndoCmd)
	task.TaskCmd.AddCommand(task.DeleteCmd)
	task.TaskCmd.AddCommand(task.ArchiveCmd)

	rootCmd.AddCommand(note.NoteCmd)
	note.NoteCmd.AddCommand(note.ListCmd)
	note.NoteCmd.AddCommand(note.AddCmd)
	note.NoteCmd.AddCommand(note.EditCmd)
	note.NoteCmd.AddCommand(note.ShowCmd)
	note.NoteCmd.AddCommand(note.DeleteCmd)

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
