/*
Package compile turns a Hive-to-Vertica copy job into a vsql command line.

	+-------------+     +-------------+     +-------------+
	|  Partition  | --> |   Source    | --> |  Statement  |
	|  Fragment   |     |  Location   |     |   (COPY)    |
	+-------------+     +-------------+     +------+------+
	                                               |
	                                        +------+------+
	                                        |   Command   |
	                                        |   (vsql)    |
	                                        +-------------+

🎯 Purpose:
- Derives the HDFS folder of a Hive table from its schema.table name
- Builds the Vertica COPY ... ORC statement for that folder
- Wraps the statement into a vsql invocation

📝 Everything here is pure string work. Nothing is executed and nothing is
read from HDFS or Vertica.

🔍 Example:

	c, err := compile.New(compile.Options{
		SourceTable:      "sales.orders",
		DestinationTable: "dwh.orders",
		PartitionColumn:  "day",
		PartitionValue:   "2019-03-03",
	})
	if err != nil {
		return err
	}
	fmt.Println(c.CommandLine())
	// /opt/vertica/bin/vsql -U dbadmin -h 127.0.0.1 DWH -c "COPY dwh.orders FROM 'hdfs:///apps/hive/warehouse/sales.db/orders/day=2019-03-03/*' ORC(hive_partition_cols='day');"
*/
package compile
