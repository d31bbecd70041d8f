package discord

// Friendly message constants for Discord responses
const (
	// Permissions
	MsgPermissionDenied = "❌ Dafür brauchst du Manage Server / Admin Rechte."
	MsgGuildOnly        = "❌ Dieser Befehl funktioniert nur auf einem Server."

	// Links
	MsgListNotFound  = "❌ Liste nicht gefunden oder API nicht erreichbar."
	MsgInvalidSlug   = "❌ Ungültiger Slug."
	MsgNothingLinked = "ℹ️ In diesem Channel ist kein Live-Post verbunden."
	MsgUnlinked      = "✅ Verbindung entfernt."
	MsgLinked        = "✅ Verbunden! Live-Post erstellt.\nSlug: **%s**\n%s"
	MsgLinkNotFound  = "❌ Live-Link nicht gefunden."
	MsgInvalidName   = "❌ Ungültiger Listenname (max. 100 Zeichen)."

	// Token state after /teamkill link
	MsgTokenAccepted   = "Buttons aktiv ✅ (count_token gültig)"
	MsgTokenMismatch   = "⚠️ count_token passt nicht zum slug (gehört zu %s). Buttons aus."
	MsgTokenInvalid    = "⚠️ count_token ungültig. Buttons aus."
	MsgTokenUnverified = "⚠️ count_token konnte gerade nicht geprüft werden. Buttons aus, bitte später erneut verbinden."
	MsgTokenNone       = "ℹ️ Kein count_token angegeben → read-only."

	// Created list
	MsgListCreated = "✅ Liste erstellt: **%s**\n\n" +
		"👀 View: %s\n" +
		"🎯 Count: %s\n" +
		"🛡️ Owner (nur für dich): %s\n\n" +
		"➡️ Live posten:\n" +
		"`%s`"
	MsgUnknownURL = "(unknown)"

	// Counting
	MsgReadOnly          = "⚠️ Counting ist deaktiviert (kein gültiger count_token beim /teamkill link)."
	MsgTokenRevoked      = "❌ count_token ist nicht mehr gültig → Counting wurde deaktiviert."
	MsgTokenUnverifiable = "⏳ count_token konnte gerade nicht geprüft werden. Bitte gleich nochmal versuchen."
	MsgNoSelection       = "ℹ️ Bitte erst Spieler auswählen (Dropdown)."
	MsgInvalidSelection  = "ℹ️ Keine gültige Auswahl."
	MsgSelectionSaved    = "✅ Auswahl gespeichert. Jetzt +1 / -1 drücken."
	MsgDeltaApplied      = "✅ %s gesetzt. Neuer Stand: **%d**"
	MsgDeltaAppliedNoSum = "✅ %s gesetzt."

	// Failures
	MsgRemoteUnavailable = "⏳ teamkill.club ist gerade nicht erreichbar. Bitte später nochmal versuchen."
	MsgBusy              = "⏳ Gerade viel los. Bitte gleich nochmal versuchen."
	MsgGenericError      = "❌ Fehler: unbekannt"
	MsgErrorPrefix       = "❌ Fehler: "
)
