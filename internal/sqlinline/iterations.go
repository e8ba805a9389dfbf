package sqlinline

const QInsertIteration = `--sql 045ded64-163e-4c23-8432-5c63e262b497
insert into script_iterations (id, job_id, version, scenes, review, created_at)
values ($1::uuid, $2::uuid, $3::int, $4::jsonb, null, now());
`

const QAttachIterationReview = `--sql bff4bf89-9b80-4805-b9ff-77cf7e23e0a5
update script_iterations
set review = $3::jsonb
where job_id = $1::uuid
  and version = $2::int;
`

const QListIterations = `--sql 486a3be7-914b-4241-8bfc-1617f3a893c9
select id, job_id, version, scenes, review, created_at
from script_iterations
where job_id = $1::uuid
order by version asc;
`
