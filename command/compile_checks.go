package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RunSyncMessage]             = (*RunSyncCommand)(nil)
	_ gocmd.Commander[RunFormSyncMessage]         = (*RunFormSyncCommand)(nil)
	_ gocmd.Commander[RefreshFormMappingsMessage] = (*RefreshFormMappingsCommand)(nil)
	_ gocmd.Commander[RegisterPageMessage]        = (*RegisterPageCommand)(nil)
	_ gocmd.Commander[DiscoverFormsMessage]       = (*DiscoverFormsCommand)(nil)
)
