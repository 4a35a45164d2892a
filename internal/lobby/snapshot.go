package lobby

import (
	"github.com/DoyleJ11/connect-four-server/internal/engine"
	"github.com/DoyleJ11/connect-four-server/internal/registry"
	"github.com/DoyleJ11/connect-four-server/internal/types"
)

func buildServerData(s engine.State, ids []registry.Identity) types.ServerData {
	clients := make([]types.ClientEntry, 0, len(ids))
	for _, id := range ids {
		entry := types.ClientEntry{
			Name:   id.Name,
			Color:  id.Color,
			Role:   string(id.Role),
			MouseX: id.Pointer.X,
			MouseY: id.Pointer.Y,
		}
		if id.Pointer.OverGrid() {
			row, col := id.Pointer.Row, id.Pointer.Col
			entry.Row = &row
			entry.Col = &col
		}
		clients = append(clients, entry)
	}

	objects := make([]types.ObjectEntry, 0, len(s.Pieces))
	for _, p := range s.Pieces {
		objects = append(objects, types.ObjectEntry{
			ID:   p.ID,
			X:    p.X,
			Y:    p.Y,
			Cols: p.Cols,
			Rows: p.Rows,
			Role: string(p.Role),
		})
	}

	return types.ServerData{
		Type:        types.TypeServerData,
		ClientsList: clients,
		ObjectsList: objects,
		CurrentTurn: string(s.Turn),
		ScoreR:      s.ScoreR,
		ScoreY:      s.ScoreY,
		RoundWinner: string(s.RoundWinner),
		GameWinner:  string(s.GameWinner),
	}
}
