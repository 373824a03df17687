package game

import "github.com/suspectgrid/suspect-server-go/internal/game/board"

// Roster is the fixed pool of suspects a board is dealt from.
var Roster = []board.Suspect{
	{ID: 1, Name: "Eliza"}, {ID: 2, Name: "Barrin"}, {ID: 3, Name: "Clive"}, {ID: 4, Name: "Deirdre"}, {ID: 5, Name: "Ernest"},
	{ID: 6, Name: "Franklin"}, {ID: 7, Name: "Geneva"}, {ID: 8, Name: "Horatio"}, {ID: 9, Name: "Irma"}, {ID: 10, Name: "Julian"},
	{ID: 11, Name: "Christoph"}, {ID: 12, Name: "Linus"}, {ID: 13, Name: "Marion"}, {ID: 14, Name: "Neil"}, {ID: 15, Name: "Ophelia"},
	{ID: 16, Name: "Phoebe"}, {ID: 17, Name: "Quinton"}, {ID: 18, Name: "Ryan"}, {ID: 19, Name: "Simon"}, {ID: 20, Name: "Trevor"},
	{ID: 21, Name: "Ulysses"}, {ID: 22, Name: "Vladimir"}, {ID: 23, Name: "Wilhelm"}, {ID: 24, Name: "Yvonne"}, {ID: 25, Name: "Zachary"},
	{ID: 26, Name: "Branson"}, {ID: 27, Name: "Cartwright"}, {ID: 28, Name: "Darnell"}, {ID: 29, Name: "Evelyn"}, {ID: 30, Name: "Pedro"},
	{ID: 31, Name: "Ramon"}, {ID: 32, Name: "Suzanne"}, {ID: 33, Name: "Tasha"}, {ID: 34, Name: "Ulbrecht"}, {ID: 35, Name: "Vincent"},
	{ID: 36, Name: "Wanda"}, {ID: 37, Name: "Isolde"}, {ID: 38, Name: "Grace"}, {ID: 39, Name: "Hubert"}, {ID: 40, Name: "Ivan"},
	{ID: 41, Name: "Jack"}, {ID: 42, Name: "Katherine"}, {ID: 43, Name: "Lynette"}, {ID: 44, Name: "Marcus"}, {ID: 45, Name: "Nathan"},
	{ID: 46, Name: "Kassim"}, {ID: 47, Name: "Florence"}, {ID: 48, Name: "Vance"}, {ID: 49, Name: "Walter"}, {ID: 50, Name: "Xavier"},
}
