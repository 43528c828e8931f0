package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  id varchar primary key,
  time datetime,
  width int,
  height int,
  connect int,
  player1 varchar,
  player2 varchar,
  result string,
  winner string,
  moves int,
  record text
)`

const createPlayerView = `
CREATE VIEW IF NOT EXISTS player_games (
  id, player, opponent, seat, win, result, width, height, connect, moves
) AS
SELECT id, player2, player1, 'player2',
       CASE winner WHEN 'player1' THEN 'lose' WHEN 'player2' THEN 'win' ELSE 'tie' END,
       result, width, height, connect, moves
 FROM games
UNION ALL
SELECT id, player1, player2, 'player1',
       CASE winner WHEN 'player1' THEN 'win' WHEN 'player2' THEN 'lose' ELSE 'tie' END,
       result, width, height, connect, moves
 FROM games
`

const insertStmt = `
INSERT INTO games (id, time, width, height, connect, player1, player2, result, winner, moves, record)
VALUES (:id, :time, :width, :height, :connect, :player1, :player2, :result, :winner, :moves, :record)
`

const selectGames = `
SELECT id, time, width, height, connect, player1, player2, result, winner, moves, record
FROM games
ORDER BY time DESC
LIMIT ?
`

const selectGame = `
SELECT id, time, width, height, connect, player1, player2, result, winner, moves, record
FROM games
WHERE id = ?
`

const selectStandings = `
SELECT player,
       SUM(CASE win WHEN 'win' THEN 1 ELSE 0 END) AS wins,
       SUM(CASE win WHEN 'lose' THEN 1 ELSE 0 END) AS losses,
       SUM(CASE win WHEN 'tie' THEN 1 ELSE 0 END) AS ties
FROM player_games
GROUP BY player
ORDER BY wins DESC, player
`
