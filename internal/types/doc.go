// Package types holds the JSON wire format spoken over /ws. Every WebSocket
// text frame carries one or more newline-separated messages of the form
// {"type": string, ...}.
//
// Client -> Server
//
//	clientMouseMoving:   value: {mouseX, mouseY, row?, col?}
//	clientObjectMoving:  value: {id, x, y, cols?, rows?}   (drag feedback only)
//	clientPieceMoving:   accepted and ignored
//	clientPlay:          column: number, pieceId: string
//	clientContinueRound: {}
//	clientRematch:       {}
//
// Server -> Client
//
//	serverData: clientName, clientsList[{name,color,role?,mouseX,mouseY,row?,col?}],
//	            objectsList[{id,x,y,cols,rows,role?}], currentTurn, scoreR, scoreY,
//	            roundWinner?, gameWinner?
//	countdown:  value: 5..0, where 0 starts the round
package types
