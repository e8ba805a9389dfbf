package sqlinline

const QInsertScriptJob = `--sql d85a9f7c-bff2-46c6-9258-ed23dbffb816
insert into script_jobs (id, user_id, article_id, status, gate_decision, iteration_count, revision_count, final_score, revision_notes, error_message, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::int, $7::int, $8::int, $9::text, $10::text, now(), now());
`

const QScriptJobExists = `--sql 01f680b4-c7a9-4c0c-ad3c-3d485b1770e9
select exists (
  select 1
  from script_jobs
  where user_id = $1::uuid
    and article_id = $2::uuid
);
`

const QSelectScriptJob = `--sql 5c9b1d20-e2c5-48c2-9a3f-514bb69de24a
select id, user_id, article_id, status, gate_decision, iteration_count, revision_count, final_score, revision_notes, error_message, created_at, updated_at, reviewed_at
from script_jobs
where id = $1::uuid;
`

const QUpdateScriptJob = `--sql 040a322a-83a2-4be4-80e7-7fddf0ea37b4
update script_jobs
set status = $2::text,
    gate_decision = $3::text,
    iteration_count = $4::int,
    revision_count = $5::int,
    final_score = $6::int,
    revision_notes = $7::text,
    error_message = $8::text,
    reviewed_at = $9::timestamptz,
    updated_at = now()
where id = $1::uuid;
`

const QListScriptJobs = `--sql 66fe8933-0012-43ed-af8b-b2b010470677
select id, user_id, article_id, status, gate_decision, iteration_count, revision_count, final_score, revision_notes, error_message, created_at, updated_at, reviewed_at
from script_jobs
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`
