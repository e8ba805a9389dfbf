package sqlinline

const QUserScriptStats = `--sql 1132be6a-7a4c-4089-9ac7-c75ed8b62cb0
select
  count(*) as total,
  count(*) filter (where status = 'approved') as approved,
  count(*) filter (where status = 'needs_human_review') as needs_review,
  count(*) filter (where status = 'rejected') as rejected,
  coalesce(avg(final_score) filter (where reviewed_at is not null), 0) as avg_score,
  count(*) filter (where created_at >= current_date) as today
from script_jobs
where user_id = $1::uuid;
`
