package discord

// Reply texts.
const (
	tzListURL = "https://en.wikipedia.org/wiki/List_of_tz_database_time_zones#List"

	invalidTimezoneFmt = "Invalid timezone %q.\nPlease provide a valid TZ identifier from [here](<" + tzListURL + ">)."
	guildOnlyText      = "This command can only be used in a server."
	internalErrorText  = "Something went wrong while running this command. Please try again later."

	noPermissionSetText         = "You do not have permission to set the timezone for others."
	noPermissionClearText       = "You do not have permission to clear the timezone for others."
	noPermissionTimeMessageText = "You need the Manage Server permission to manage the persistent time message."

	timezoneSetFmt     = "%s's timezone is set to %s. The current date and time is %s."
	timezoneCurrentFmt = "Your timezone is set to %s. The current date and time is %s."
	timezoneNotSetText = "You have not set your timezone yet."
	timezoneClearedFmt = "%s's timezone has been cleared."

	timeInFmt     = "The current date and time in %s is %s."
	timeAtFmt     = "The current date and time for %s is %s."
	timeAtNoneFmt = "%s has not set their timezone yet."

	timeMessageFailedText  = "Failed to send the persistent time message."
	timeMessageSentFmt     = "Persistent time message sent in %s."
	timeMessageMissingText = "No persistent time message exists."
	timeMessageClearedText = "Persistent time message cleared."
)
