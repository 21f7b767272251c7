// Package sql executes generated statements over database/sql and carries
// their results back as materialized result sets.
//
// # Driver
//
// Driver wraps a *sql.DB and implements the three execution operations the
// entity manager needs:
//
//	drv, err := sql.Open("sqlite", "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	err = drv.Exec(ctx, "DROP TABLE users;")
//	id, err := drv.Insert(ctx, "INSERT INTO users (email) VALUES ('a@b.c');", "id")
//	rs, err := drv.Query(ctx, "SELECT users.id, users.email FROM users;")
//
// Postgres drivers ("postgres", "pgx") read generated identifiers through a
// RETURNING clause, every other driver through sql.Result.LastInsertId.
//
// # Result Sets
//
// Query drains the cursor into a ResultSet. Rows are read by column label
// and labels can be replaced positionally with Relabel, which is how joined
// selects recover table qualified names for columns the driver reports
// unqualified:
//
//	rs.Relabel([]string{"orders.id", "order_items.id"})
//	v, ok := rs.Row(0).Get("order_items.id")
//
// # Literals
//
// Statements are plain text with values embedded as literals. Literal
// renders a Go value in SQL literal form:
//
//	sql.Literal("O'Brien") // 'O''Brien'
//	sql.Literal(30)        // 30
//	sql.Literal(true)      // TRUE
//
// # Statistics
//
// StatsDriver and DebugDriver wrap any Executor with query statistics and
// statement logging. StatsCollector exports the statistics to Prometheus.
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog())
//	prometheus.MustRegister(sql.NewStatsCollector("app", stats.QueryStats()))
package sql
