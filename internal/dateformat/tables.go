package dateformat

// Luxon translates PostgreSQL and strftime tokens into luxon tokens.
var Luxon = MustTable([]Token{
	{From: "YYYY", To: "yyyy"},
	{From: "YY", To: "yy"},
	{From: "MM", To: "LL"},
	{From: "DD", To: "dd"},
	{From: "HH24", To: "HH"},
	{From: "HH12", To: "hh"},
	{From: "HH", To: "hh"},
	{From: "MI", To: "mm"},
	{From: "SS", To: "ss"},
	{From: "MS", To: "SSS"},
	{From: "Month", To: "LLLL"},
	{From: "Mon", To: "LLL"},
	{From: "Day", To: "cccc"},
	{From: "Dy", To: "ccc"},
	{From: "DDD", To: "ooo"},
	{From: "AM", To: "a"},
	{From: "PM", To: "a"},
	{From: "TZ", To: "ZZZ"},
	{From: "%Y", To: "yyyy"},
	{From: "%m", To: "LL"},
	{From: "%d", To: "dd"},
	{From: "%H", To: "HH"},
	{From: "%M", To: "mm"},
	{From: "%S", To: "ss"},
})

// Postgres translates strftime tokens into PostgreSQL to_char tokens.
// PostgreSQL tokens pass through unchanged.
var Postgres = MustTable([]Token{
	{From: "%Y", To: "YYYY"},
	{From: "%m", To: "MM"},
	{From: "%d", To: "DD"},
	{From: "%H", To: "HH24"},
	{From: "%M", To: "MI"},
	{From: "%S", To: "SS"},
})
