package bot

const (
	responseHelp = "**Send your model number and I will attempt to convert it into an equivalent Meraki model.**\n\n" +
		"I understand natural language so you can type a question to me as well!\n\n" +
		"*Available commands:*  \n" +
		"**/info [KEY]**: Shows the details of the switch matching the key.  \n" +
		"**/list [switches/mapping/users] [FILTER]**: Lists all switches or mappings in the database. Optionally you can provide a filter.  \n" +
		"**/edit [KEY]**: Edits the switch matching the key provided (keys returned from the list command, in the format MODEL+NETWORK_MODULE).  \n" +
		"**/add-switch**: Adds a new switch to the database.  \n" +
		"**/remove-switch [PK]**: Removes a switch from the database.  \n" +
		"**/add-mapping [PK_1] [PK_2]**: Adds a mapping between PK_1 and PK_2.  \n" +
		"**/remove-mapping [PK_1] [PK_2]**: Removes a mapping between PK_1 and PK_2 from the database.  \n" +
		"**/allow [USER_ID]**: Allows a user to edit the database.  \n" +
		"**/disallow [USER_ID]**: Disallows a user from editing the database.  \n" +
		"**/discover [HOST] [COMMUNITY]**: Reads the model of a live switch over SNMP and finds its equivalent.  \n" +
		"**/request [MESSAGE]**: Requests editing access. Please supply a message with details.  \n" +
		"**/export**: Exports a CSV copy of the current database for bulk editing.  \n" +
		"**/import**: Imports a CSV of the current database for bulk editing."

	responseHelpRestricted = "**Send your model number and I will attempt to convert it into an equivalent Meraki model.**\n\n" +
		"I understand natural language so you can type a question to me as well!\n\n" +
		"*Available commands:*  \n" +
		"**/info [KEY]**: Shows the details of the switch matching the key.  \n" +
		"**/list [switches/mapping] [FILTER]**: Lists all switches or mappings in the database. Optionally you can provide a filter.  \n" +
		"**/request [MESSAGE]**: Requests editing access. Please supply a message with details.  \n"

	responseNotImplemented       = "This feature is not yet implemented."
	responseNoPermission         = "Sorry, you don't have permission to do that."
	responseCommandNotRecognised = "Unrecognised command!\n\nSee /help for a list of available commands."

	responseNoMatch      = "Sorry, I couldn't find any switch matching that model number."
	responseNoEquivalent = "Sorry, I couldn't find an equivalent switch for that."
	responseBeSpecific   = "**I've found multiple matches for that model - please be more specific.**"
	responsePickModule   = "**This is a modular switch - what is the correct combination?**"
	responseInfoHint     = "*To find out more information about any particular switch, type '/info [SWITCH]'*"
)
