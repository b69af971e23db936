// Package aggregate contém as funções puras que transformam o histórico de partidas
// de um time em estatísticas por herói e por posição.
//
// Nenhuma função deste pacote faz I/O, altera a entrada ou retorna erro: cada chamada
// recebe a lista de partidas e devolve um mapa novo.
package aggregate

import (
	"sync"

	"github.com/radieske/dota2-scout/internal/scout/dto"
)

// HeroRecord conta jogos de um herói; Wins+Losses == Games
type HeroRecord struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// HeroesByPosition mapeia posição -> heroID -> contagem
type HeroesByPosition map[dto.Position]map[int]HeroRecord

// BanRecord conta bans sofridos; Wins+Losses == Count
type BanRecord struct {
	Count  int `json:"count"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// ContestBreakdown separa picks e bans por lado
type ContestBreakdown struct {
	ScoutedTeamPicks int `json:"scoutedTeamPicks"`
	OpponentPicks    int `json:"opponentPicks"`
	ScoutedTeamBans  int `json:"scoutedTeamBans"`
	OpponentBans     int `json:"opponentBans"`
}

// ContestRecord soma picks e bans de um herói; Count == Picks+Bans
type ContestRecord struct {
	Count     int              `json:"count"`
	Picks     int              `json:"picks"`
	Bans      int              `json:"bans"`
	Breakdown ContestBreakdown `json:"breakdown"`
}

// Aggregate é o resultado combinado devolvido junto com as partidas
type Aggregate struct {
	BansAgainst            map[int]BanRecord     `json:"bansAgainst"`
	HeroesPlayedByPosition HeroesByPosition      `json:"heroesPlayedByPosition"`
	ContestRate            map[int]ContestRecord `json:"contestRate"`
}

// Build executa os três agregadores para o time observado.
// Eles não compartilham estado, então rodam em paralelo.
func Build(matches []dto.MatchAPIResponse, scoutedTeamID int64) Aggregate {
	var (
		out Aggregate
		wg  sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		out.BansAgainst = BansAgainst(matches, scoutedTeamID)
	}()
	go func() {
		defer wg.Done()
		out.HeroesPlayedByPosition = HeroesPlayedByPosition(matches, scoutedTeamID)
	}()
	go func() {
		defer wg.Done()
		out.ContestRate = ContestRate(matches, scoutedTeamID)
	}()
	wg.Wait()
	return out
}
